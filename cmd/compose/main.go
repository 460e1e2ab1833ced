// compose renders one post image from local files with the same pipeline as
// the HTTP service.
//
//	compose -photo photo.jpg -logo logo.png -text "Hello World" -out post.png
package main

import (
	"flag"
	"image"
	"os"

	"github.com/ds124wfegd/imagecomposer/internal/pkg/codec"
	"github.com/ds124wfegd/imagecomposer/internal/pkg/processor"
	"github.com/ds124wfegd/imagecomposer/internal/pkg/storage"
	"github.com/sirupsen/logrus"
)

func main() {
	photoPath := flag.String("photo", "", "base photo")
	logoPath := flag.String("logo", "", "logo image")
	text := flag.String("text", "", "caption")
	out := flag.String("out", "out.png", "output PNG")
	fontPath := flag.String("font", "", "TTF/OTF font (default: embedded Go Bold)")
	flag.Parse()

	if *photoPath == "" || *logoPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	files := storage.NewFileStorage("")

	fonts, err := processor.NewFontManager(files, *fontPath)
	if err != nil {
		logrus.Fatal(err)
	}

	photo, err := readImage(files, *photoPath)
	if err != nil {
		logrus.Fatalf("photo: %v", err)
	}
	logo, err := readImage(files, *logoPath)
	if err != nil {
		logrus.Fatalf("logo: %v", err)
	}

	result, err := processor.NewImageProcessor(fonts).Compose(photo, logo, *text)
	if err != nil {
		logrus.Fatal(err)
	}

	data, err := codec.EncodePNG(result.Image)
	if err != nil {
		logrus.Fatal(err)
	}
	if err := os.WriteFile(*out, data, 0644); err != nil {
		logrus.Fatal(err)
	}

	logrus.WithFields(logrus.Fields{
		"out":       *out,
		"size":      result.Image.Bounds().Size().String(),
		"font_size": result.Layout.FontSize,
		"lines":     len(result.Layout.Lines),
	}).Info("Image composed")
}

func readImage(files storage.FileStorage, path string) (image.Image, error) {
	data, err := files.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return codec.DecodeImage(data)
}
