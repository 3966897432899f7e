package main

import (
	"fulldisclosure-backend/cmd/disclosure-cli/commands"
	"fulldisclosure-backend/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
