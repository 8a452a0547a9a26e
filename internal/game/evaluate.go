// file: internal/game/evaluate.go
package game

// Evaluate 局面评分：player 的棋子数减去对手棋子数（零和）。
// 只算子数，不考虑机动性、中心控制等因素。
func Evaluate(b *Board, player CellState) int {
	a, bb := b.Counts()
	if player == PlayerB {
		return bb - a
	}
	return a - bb
}
