package main

import "workshopupload/internal/cli"

func main() {
	cli.Execute()
}
