package main

import "github.com/nextlevelbuilder/bilireply/cmd"

func main() {
	cmd.Execute()
}
