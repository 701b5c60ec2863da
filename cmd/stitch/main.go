package main

import (
	"os"

	"horse.fit/stitch/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
