// Package postprocess turns the raster G-buffer into a displayable image:
// deferred lighting, tone mapping and supersample reduction.
package postprocess

import (
	"image"
	"math"

	"parallax-renderer/internal/mathutil"
	"parallax-renderer/internal/parallel"
	"parallax-renderer/internal/raster"
)

// Resolve lights every covered pixel of fb and returns the final image.
// Pixels whose depth is not below background keep the clear color, or become
// transparent when lc.Transparent is set. Rows are shaded on pool.
func Resolve(fb *raster.FrameBuffer, lc *LightConfig, background float64, pool *parallel.Pool) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	exposure := lc.Exposure
	invGamma := lc.InvGamma

	pool.ForEach(fb.Height, func(y int) {
		from, to := fb.Row(y)
		pix := img.Pix[y*img.Stride : y*img.Stride+fb.Width*4]
		for i := from; i < to; i++ {
			p := pix[(i-from)*4 : (i-from)*4+4 : (i-from)*4+4]
			c := fb.Color[i]

			if fb.Depth[i] >= background {
				p[0], p[1], p[2], p[3] = uint8(c>>16), uint8(c>>8), uint8(c), 0xFF
				if lc.Transparent {
					p[3] = 0
				}
				continue
			}

			nx, ny, nz := raster.UnpackNormal(fb.Normal[i])
			n := mathutil.Vec3{nx, ny, nz}.Normalize()
			spec := fb.Specular[i]
			diffuse, highlight := lc.Shade(n, float64(spec>>24))

			e := fb.Emissive[i]
			for k, shift := range [3]uint32{16, 8, 0} {
				albedo := srgbToLinear[uint8(c>>shift)]
				specular := srgbToLinear[uint8(spec>>shift)]
				emissive := srgbToLinear[uint8(e>>shift)]

				// sRGB decode → shade → ACES → sRGB encode
				v := (albedo*diffuse + specular*highlight) * exposure
				v = ACESTonemap(v) + emissive
				p[k] = clamp8(math.Pow(mathutil.Clamp(v, 0, 1), invGamma) * 255)
			}
			p[3] = 0xFF
		}
	})
	return img
}
