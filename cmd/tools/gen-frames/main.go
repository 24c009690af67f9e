// Command gen-frames generates synthetic detection frame JSONL for testing
// replay runs without a live detector.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"math/rand"
	"os"

	"github.com/waypath-data/waypath/internal/vision"
)

func main() {
	output := flag.String("o", "sample.jsonl", "output path, - for stdout")
	frames := flag.Int("n", 300, "number of frames")
	fps := flag.Int("fps", 30, "frame rate encoded in the timestamps")
	width := flag.Float64("w", 640, "image width")
	height := flag.Float64("h", 480, "image height")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	out := os.Stdout
	if *output != "-" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatalf("failed to create output: %v", err)
		}
		defer f.Close()
		out = f
	}

	rng := rand.New(rand.NewSource(*seed))
	enc := json.NewEncoder(out)
	intervalMs := int64(1000 / *fps)

	for i := 0; i < *frames; i++ {
		frame := vision.Frame{
			TimestampMillis: int64(i) * intervalMs,
			ImageWidth:      *width,
			ImageHeight:     *height,
			Detections:      synthesize(rng, i, *frames, *width, *height),
		}
		if err := enc.Encode(frame); err != nil {
			log.Fatalf("failed to encode frame: %v", err)
		}
		if (i+1)%100 == 0 {
			log.Printf("%d/%d frames", i+1, *frames)
		}
	}
	if *output != "-" {
		log.Printf("✓ Created: %s", *output)
	}
}

// synthesize produces a person walking toward the camera down the center of
// the image, with an occasional stationary chair off to the side.
func synthesize(rng *rand.Rand, frame, total int, width, height float64) []vision.Detection {
	progress := float64(frame) / float64(total)

	// person box grows from 10% to 80% of image height as it approaches
	personH := (0.1 + 0.7*progress) * height
	personW := personH * 0.35
	cx := width/2 + rng.Float64()*8 - 4
	bottom := height*0.9 + rng.Float64()*4 - 2

	dets := []vision.Detection{{
		Label:      "person",
		Confidence: 0.85 + rng.Float64()*0.1,
		Pixel: vision.Box{
			Left:   cx - personW/2,
			Top:    bottom - personH,
			Right:  cx + personW/2,
			Bottom: bottom,
		},
	}}

	if frame%3 != 0 {
		chairH := 0.18 * height
		dets = append(dets, vision.Detection{
			Label:      "chair",
			Confidence: 0.6 + rng.Float64()*0.2,
			Pixel: vision.Box{
				Left:   width * 0.78,
				Top:    height*0.7 - chairH,
				Right:  width*0.78 + chairH*0.6,
				Bottom: height * 0.7,
			},
		})
	}
	return dets
}
