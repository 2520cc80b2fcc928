// Command msgpackcat is a small CLI around pkg/buffer and pkg/msgpack:
// decode a MessagePack file to JSON, query a decoded value with a
// gjson path, or benchmark decode throughput. It mirrors the shape of
// the teacher's cmd/hermodctl.
package main

func main() {
	Execute()
}
