package main

import "github.com/brogergvhs/mangatrack/cmd"

func main() {
	cmd.Execute()
}
