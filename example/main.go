// Command example uploads local files through a running companion gateway.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/beanbocchi/companion/pkg/sdk"
)

func main() {
	server := flag.String("server", "http://localhost:3020", "companion gateway base URL")
	session := flag.String("uuid", "", "upload session UUID (generated when empty)")
	contentType := flag.String("type", "", "content type of the files")
	partSizeMB := flag.Int64("part-size", 16, "multipart chunk size in MiB")
	concurrency := flag.Int("concurrency", 4, "parallel part uploads")
	force := flag.Bool("force", false, "re-upload files that already exist")
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "usage: example [flags] file...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	sessionID := *session
	if sessionID == "" {
		sessionID = uuid.NewString()
		log.Printf("generated new upload session %s", sessionID)
	} else {
		log.Printf("resuming upload session %s", sessionID)
	}

	client := sdk.NewClient(*server)
	ctx := context.Background()
	start := time.Now()

	for _, path := range files {
		result, err := client.UploadFile(ctx, sdk.UploadParams{
			SessionID:   sessionID,
			Path:        path,
			ContentType: *contentType,
			PartSize:    *partSizeMB * 1024 * 1024,
			Concurrency: *concurrency,
			Force:       *force,
		})
		if err != nil {
			log.Fatalf("upload %s: %v", path, err)
		}

		if result.Skipped {
			log.Printf("skipped %s, already on the store", result.Key)
			continue
		}
		log.Printf("uploaded %s (%d bytes, %d part(s), blake3 %s)",
			result.Key, result.Size, result.Parts, result.Checksum)
	}

	log.Printf("upload of %d file(s) took %s", len(files), time.Since(start).Round(time.Millisecond))
}
