package cli

func regCommands() {
	//Root
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(serveCmd)
}
