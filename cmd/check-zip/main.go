package main

// main is the entry point for the check-zip application.
func main() {
	Execute()
}
