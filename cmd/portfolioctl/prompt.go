package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ascollins/portfolioctl/internal/client/form"
	"github.com/ascollins/portfolioctl/internal/client/media"
)

// promptFields walks the schema and reads a value for each field. Pressing
// enter keeps the current (pre-populated) value.
func promptFields(scanner *bufio.Scanner, d *form.Dialog, schema form.Schema) {
	for _, f := range schema.Fields {
		current := d.Value(f.Name)
		if current != "" {
			fmt.Printf("%s [%s]: ", f.Label, current)
		} else {
			fmt.Printf("%s: ", f.Label)
		}
		if !scanner.Scan() {
			return
		}
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			d.Set(f.Name, line)
		}
	}
}

// printFieldErrors shows the validation messages of a rejected submit.
func printFieldErrors(d *form.Dialog, schema form.Schema) {
	for _, f := range schema.Fields {
		if msg := d.FieldError(f.Name); msg != "" {
			fmt.Printf("  %s\n", msg)
		}
	}
}

// promptMedia lets the user attach local files to the dialog before saving.
// Each entry is uploaded immediately; the dialog's submit stays disabled
// until every upload has finished.
func (a *app) promptMedia(ctx context.Context, scanner *bufio.Scanner, d *form.Dialog, tags []string, videoAllowed bool) {
	usage := "image <path>"
	if videoAllowed {
		usage = "image <path> | video <path>"
	}
	for {
		fmt.Printf("Attach media (%s | done): ", usage)
		if !scanner.Scan() {
			return
		}
		args := strings.Fields(scanner.Text())
		if len(args) == 0 || args[0] == "done" {
			return
		}
		if len(args) < 2 {
			fmt.Println("Usage:", usage)
			continue
		}
		kind := media.KindImage
		switch args[0] {
		case "image":
		case "video":
			if !videoAllowed {
				fmt.Println("Videos are not supported here")
				continue
			}
			kind = media.KindVideo
		default:
			fmt.Println("Usage:", usage)
			continue
		}

		path := args[1]
		f, err := os.Open(path)
		if err != nil {
			fmt.Printf("Cannot open %q: %v\n", path, err)
			continue
		}
		info, err := f.Stat()
		if err != nil {
			_ = f.Close()
			fmt.Printf("Cannot stat %q: %v\n", path, err)
			continue
		}
		_, _ = a.uploader.Upload(ctx, d, kind, info.Name(), f, info.Size(), tags)
		_ = f.Close()
	}
}

// confirm asks a yes/no question, defaulting to no.
func confirm(scanner *bufio.Scanner, prompt string) bool {
	fmt.Printf("%s (y/N): ", prompt)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}
