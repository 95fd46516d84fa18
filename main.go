package main

import "consoul-backend/cmd"

func main() {
	cmd.Run()
}
