package main

import "github.com/yashrajoria/catalog-service/cmd/catalog/commands"

func main() {
	commands.Execute()
}
