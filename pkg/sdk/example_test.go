package sdk_test

import (
	"context"
	"fmt"
	"log"

	"github.com/beanbocchi/companion/pkg/sdk"
)

func ExampleClient_UploadFile() {
	client := sdk.NewClient("http://localhost:3020")

	result, err := client.UploadFile(context.Background(), sdk.UploadParams{
		SessionID: "6fa459ea-ee8a-3ca4-894e-db77e160355e",
		Path:      "archive.bin",
	})
	if err != nil {
		log.Fatal(err)
	}

	if result.Skipped {
		fmt.Printf("%s already uploaded\n", result.Key)
		return
	}
	fmt.Printf("uploaded %s in %d part(s), blake3 %s\n", result.Key, result.Parts, result.Checksum)
}

func ExampleClient_CheckFiles() {
	client := sdk.NewClient("http://localhost:3020")

	existing, err := client.CheckFiles(context.Background(),
		"6fa459ea-ee8a-3ca4-894e-db77e160355e",
		[]string{"a.bin", "b.bin"},
	)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("already uploaded: %v\n", existing)
}
