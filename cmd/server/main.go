package main

import "cadastro/internal/app/server"

func main() {
	server.Run()
}
