package postprocess

import (
	"image"
	"math"
)

// DefaultFillRatio is the share of the canvas the tree's longer side covers.
const DefaultFillRatio = 0.9

// CropAndCenter crops to the bounding box of non-transparent pixels, then
// scales the result to fillRatio of a size×size canvas and centers it.
// A fully transparent image yields an empty canvas.
func CropAndCenter(img *image.NRGBA, size int, fillRatio float64) *image.NRGBA {
	cropped, ok := cropAlpha(img)
	if !ok {
		return image.NewNRGBA(image.Rect(0, 0, size, size))
	}
	return scaleAndCenter(cropped, size, fillRatio)
}

// cropAlpha returns the tight box around pixels with non-zero alpha.
func cropAlpha(img *image.NRGBA) (*image.NRGBA, bool) {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.Pix[img.PixOffset(x, y)+3] == 0 {
				continue
			}
			minX = min(minX, x)
			maxX = max(maxX, x)
			minY = min(minY, y)
			maxY = max(maxY, y)
		}
	}
	if maxX < minX || maxY < minY {
		return nil, false
	}

	cropW := maxX - minX + 1
	cropH := maxY - minY + 1
	cropped := image.NewNRGBA(image.Rect(0, 0, cropW, cropH))
	for y := 0; y < cropH; y++ {
		srcOff := img.PixOffset(minX, minY+y)
		dstOff := y * cropped.Stride
		copy(cropped.Pix[dstOff:dstOff+cropW*4], img.Pix[srcOff:srcOff+cropW*4])
	}
	return cropped, true
}

func scaleAndCenter(img *image.NRGBA, canvasSize int, fillRatio float64) *image.NRGBA {
	canvas := image.NewNRGBA(image.Rect(0, 0, canvasSize, canvasSize))
	srcW, srcH := img.Bounds().Dx(), img.Bounds().Dy()
	if srcW == 0 || srcH == 0 || canvasSize <= 0 {
		return canvas
	}
	if fillRatio <= 0 || fillRatio > 1 {
		fillRatio = DefaultFillRatio
	}

	maxDim := float64(canvasSize) * fillRatio
	scaleF := maxDim / math.Max(float64(srcW), float64(srcH))
	newW := min(max(int(float64(srcW)*scaleF+0.5), 1), canvasSize)
	newH := min(max(int(float64(srcH)*scaleF+0.5), 1), canvasSize)

	scaled := resample(img, newW, newH)

	offX := (canvasSize - newW) / 2
	offY := (canvasSize - newH) / 2
	for y := 0; y < newH; y++ {
		srcOff := y * scaled.Stride
		dstOff := (offY+y)*canvas.Stride + offX*4
		copy(canvas.Pix[dstOff:dstOff+newW*4], scaled.Pix[srcOff:srcOff+newW*4])
	}
	return canvas
}
