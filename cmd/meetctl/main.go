// meetctl is the command line client of the meeting server.
package main

func main() {
	Execute()
}
