// scaleserve runs the annotation session as a headless HTTP API, for batch
// pipelines that calibrate and preprocess micrographs without the GUI.
package main

import (
	"flag"
	"log"

	"github.com/MikeWise2718/fish-scales-sub003/internal/server"
	"github.com/MikeWise2718/fish-scales-sub003/internal/session"
	"github.com/MikeWise2718/fish-scales-sub003/internal/version"
)

func main() {
	addr := flag.String("addr", "localhost:8750", "listen address")
	imagePath := flag.String("image", "", "image to load at startup")
	flag.Parse()

	log.Printf("scaleserve v%s", version.Version)

	sess := session.New()
	if *imagePath != "" {
		if err := sess.LoadImage(*imagePath); err != nil {
			log.Fatalf("failed to load %s: %v", *imagePath, err)
		}
	}

	if err := server.New(sess).ListenAndServe(*addr); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
