package main

import "apt-warden/internal/cli"

func main() {
	cli.Execute()
}
