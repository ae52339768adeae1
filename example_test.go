package chessmcp_test

import (
	"fmt"

	chessmcp "github.com/AnglerfishChess/chess-uci-mcp"
)

func ExampleCentipawns() {
	score := chessmcp.Centipawns(34)
	fmt.Println(score)
	// Output: 0.34
}

func ExampleMateScore() {
	fmt.Println(chessmcp.MateScore(3))
	fmt.Println(chessmcp.MateScore(-2))
	// Output:
	// mate3
	// mate-2
}

func ExampleScore_MarshalJSON() {
	data, _ := chessmcp.Centipawns(-150).MarshalJSON()
	fmt.Println(string(data))
	data, _ = chessmcp.MateScore(5).MarshalJSON()
	fmt.Println(string(data))
	// Output:
	// -1.5
	// "mate5"
}
