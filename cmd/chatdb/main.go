package main

import (
	"os"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	"github.com/josephhbu/ChatDB/internal/cli/commands"
)

func main() {
	os.Exit(commands.Execute())
}
