// Package main is the entry point for shopstream.
package main

func main() {
	Execute()
}
