package main

import "bookreview_backend/internal/app"

func main() {
	app.Run()
}
