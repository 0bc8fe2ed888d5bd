package notify

import (
	"fmt"
	"image"
	"os"

	// Decoders for the common icon formats, registered the usual way.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
)

// maxImageDim bounds the pixel dimensions of image-data hints. Servers are
// free to reject arbitrarily large payloads, so anything bigger is scaled
// down before it is encoded.
const maxImageDim = 200

// Image is the raw pixel payload of an image-data hint.
type Image struct {
	Width         int32
	Height        int32
	Rowstride     int32
	HasAlpha      bool
	BitsPerSample int32
	Channels      int32
	Data          []byte
}

// ImageFromRGB builds an Image from packed 8-bit RGB data. The buffer length
// must be exactly width*height*3.
func ImageFromRGB(width, height int, data []byte) (Image, error) {
	if len(data) != width*height*3 {
		return Image{}, wrapErr(ErrParse,
			fmt.Sprintf("rgb buffer is %d bytes, want %d", len(data), width*height*3), nil)
	}
	return Image{
		Width:         int32(width),
		Height:        int32(height),
		Rowstride:     int32(width * 3),
		HasAlpha:      false,
		BitsPerSample: 8,
		Channels:      3,
		Data:          data,
	}, nil
}

// ImageFromRGBA builds an Image from packed 8-bit RGBA data. The buffer
// length must be exactly width*height*4.
func ImageFromRGBA(width, height int, data []byte) (Image, error) {
	if len(data) != width*height*4 {
		return Image{}, wrapErr(ErrParse,
			fmt.Sprintf("rgba buffer is %d bytes, want %d", len(data), width*height*4), nil)
	}
	return Image{
		Width:         int32(width),
		Height:        int32(height),
		Rowstride:     int32(width * 4),
		HasAlpha:      true,
		BitsPerSample: 8,
		Channels:      4,
		Data:          data,
	}, nil
}

// OpenImage loads an image file and converts it into hint pixel data,
// downscaling it if it exceeds the dimension bound.
func OpenImage(path string) (Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return Image{}, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return Image{}, fmt.Errorf("decode image %s: %w", path, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxImageDim || bounds.Dy() > maxImageDim {
		img = resize.Thumbnail(maxImageDim, maxImageDim, img, resize.Lanczos3)
	}

	return fromGoImage(img), nil
}

func fromGoImage(img image.Image) Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	data := make([]byte, 0, width*height*4)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			data = append(data, byte(r>>8), byte(g>>8), byte(b>>8), byte(a>>8))
		}
	}
	return Image{
		Width:         int32(width),
		Height:        int32(height),
		Rowstride:     int32(width * 4),
		HasAlpha:      true,
		BitsPerSample: 8,
		Channels:      4,
		Data:          data,
	}
}
