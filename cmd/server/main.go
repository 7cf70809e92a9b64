package main

import "carepay/internal/app/server"

func main() {
	server.Run()
}
