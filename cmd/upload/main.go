package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"mime"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mavericklabs/sparks-files/env"
	"github.com/mavericklabs/sparks-files/internal/services/uploader"
)

func main() {
	_ = godotenv.Load()

	productID := flag.String("product", "", "product the files belong to")
	stepID := flag.Int("step", 0, "step the files belong to (0 for none)")
	subStepID := flag.Int("sub-step", 0, "sub-step the files belong to (0 for none)")
	replace := flag.Bool("replace", false, "replace duplicates instead of skipping them")
	flag.Parse()

	if *productID == "" || flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "usage: %s -product <id> [-step N] [-sub-step N] [-replace] <file>...\n", os.Args[0])
		os.Exit(2)
	}

	baseURL, err := env.Get(env.APIBaseURL)
	if err != nil {
		log.Fatal(err)
	}
	token, err := env.Get(env.APIToken)
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}

	files := make([]uploader.File, 0, flag.NArg())
	for _, path := range flag.Args() {
		file, err := newFile(path)
		if err != nil {
			log.Fatal(err)
		}
		files = append(files, file)
	}

	resolve := func(string) uploader.Decision {
		if *replace {
			return uploader.DecisionReplace
		}
		return uploader.DecisionSkip
	}

	up := uploader.New(uploader.NewClient(baseURL, token), logger.Sugar(), uploader.Options{
		Resolve: resolve,
		OnProgress: func(index int, status uploader.Status, percent float64) {
			log.Printf("%s: %s %.0f%%", files[index].Name, status, percent)
		},
	})

	results := up.UploadAll(context.Background(), *productID, optional(*stepID), optional(*subStepID), files)

	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
			log.Printf("%s: %v", result.Name, result.Err)
		}
	}
	if failed > 0 {
		log.Fatalf("%d of %d files failed", failed, len(results))
	}
}

func newFile(path string) (uploader.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return uploader.File{}, err
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return uploader.File{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Size:        info.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

func optional(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}
