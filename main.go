package main

import "syncode-backend/cmd"

func main() {
	cmd.Execute()
}
