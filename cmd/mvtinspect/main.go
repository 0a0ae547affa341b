// Command mvtinspect decodes and summarizes Mapbox Vector Tile files from
// the command line.
package main

func main() {
	Execute()
}
