package main

import (
	cmd "github.com/kerbaras/mangatrack/cmd/mangas"
)

func main() {
	cmd.Execute()
}
