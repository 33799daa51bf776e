// cmd/bi-agent/main.go
package main

import "monday-bi-agent/internal/cli"

func main() {
	cli.Execute()
}
