package main

import "github.com/klytics/sheetshot/cmd"

func main() {
	cmd.Execute()
}
