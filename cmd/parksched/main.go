package main

import "github.com/example/parking-scheduler/internal/interfaces/cli"

func main() {
	cli.Execute()
}
