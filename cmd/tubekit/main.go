package main

import "github.com/devbush/tubekit/internal/adapters/cli"

func main() {
	cli.Execute()
}
