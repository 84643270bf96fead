package main

import "github.com/cairnlabs/cairn/cmd/cairn"

func main() {
	cairn.Execute()
}
