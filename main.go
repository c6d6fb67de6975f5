package main

import "github.com/ryan-gang/screen-watcher/cmd"

func main() {
	cmd.Execute()
}
