// Command cachesim runs the trace-driven cache-hierarchy simulator.
package main

func main() {
	Execute()
}
