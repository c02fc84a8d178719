// Scale Annotator marks and measures tubercles on fish scale micrographs.
package main

import (
	"flag"
	"log"

	"fyne.io/fyne/v2/app"

	"github.com/MikeWise2718/fish-scales-sub003/internal/server"
	"github.com/MikeWise2718/fish-scales-sub003/internal/session"
	"github.com/MikeWise2718/fish-scales-sub003/internal/version"
	"github.com/MikeWise2718/fish-scales-sub003/ui/mainwindow"
	"github.com/MikeWise2718/fish-scales-sub003/ui/prefs"
)

func main() {
	imagePath := flag.String("image", "", "image to open at startup")
	apiAddr := flag.String("api", "", "also serve the HTTP API on this address (e.g. localhost:8750)")
	flag.Parse()

	log.Printf("Scale Annotator v%s (built %s)", version.Version, version.BuildTime)

	sess := session.New()
	if *apiAddr != "" {
		srv := server.New(sess)
		go func() {
			if err := srv.ListenAndServe(*apiAddr); err != nil {
				log.Printf("API server stopped: %v", err)
			}
		}()
	}

	fyneApp := app.NewWithID("com.github.mikewise2718.scale-annotator")
	win := mainwindow.New(fyneApp, sess, prefs.Load())

	if *imagePath != "" {
		if err := sess.LoadImage(*imagePath); err != nil {
			log.Printf("failed to load %s: %v", *imagePath, err)
		}
	}

	win.ShowAndRun()
}
