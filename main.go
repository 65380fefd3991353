package main

import "github.com/naka-gawa/top-repo-dashboard/cmd"

func main() {
	cmd.Execute()
}
