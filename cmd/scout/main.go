package main

import "github.com/itobot/scout/internal/cli"

func main() {
	cli.Execute()
}
