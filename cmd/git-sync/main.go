package main

// main is the entry point for the git-sync application.
func main() {
	Execute()
}
