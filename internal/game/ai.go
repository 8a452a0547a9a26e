// game/ai.go
package game

// MaxDepth is the deepest search a computer seat may be configured with.
const MaxDepth = 2

const inf = 1 << 30

// ------------------------------------------------------------
// 公共入口
// ------------------------------------------------------------

// FindBestMoveAtDepth picks the move for player by running the alpha-beta search
// below every legal root move, with player as the side the value is measured for.
// Equal values keep the first move in generation order. ok is false when player
// has no legal move.
func FindBestMoveAtDepth(b Board, player CellState, depth int) (best Move, score int, ok bool) {
	moves := GenerateMoves(&b, player)
	if len(moves) == 0 {
		return Move{}, 0, false
	}
	if depth < 0 {
		depth = 0
	}
	opp := Opponent(player)
	score = -inf
	for _, mv := range moves {
		child := b
		child.play(mv, player)
		v := alphaBeta(&child, opp, player, depth, -inf, inf)
		if v > score {
			best, score = mv, v
		}
	}
	return best, score, true
}

// ------------------------------------------------------------
// α-β
// ------------------------------------------------------------

// alphaBeta 返回值始终以 me 的视角计分：
// current == me 时取极大，否则取极小。
func alphaBeta(b *Board, current, me CellState, depth, alpha, beta int) int {
	// 叶节点：直接评估
	if depth == 0 {
		return Evaluate(b, me)
	}
	moves := GenerateMoves(b, current)
	// 无路可走：终局，同样直接评估
	if len(moves) == 0 {
		return Evaluate(b, me)
	}
	next := Opponent(current)

	if current == me {
		// === MAX 节点 ===
		best := -inf
		for _, mv := range moves {
			child := *b
			child.play(mv, current)
			score := alphaBeta(&child, next, me, depth-1, alpha, beta)
			if score > best {
				best = score
			}
			if best > alpha {
				alpha = best
			}
			if alpha >= beta {
				break // β 剪枝
			}
		}
		return best
	}

	// === MIN 节点 ===
	best := inf
	for _, mv := range moves {
		child := *b
		child.play(mv, current)
		score := alphaBeta(&child, next, me, depth-1, alpha, beta)
		if score < best {
			best = score
		}
		if best < beta {
			beta = best
		}
		if alpha >= beta {
			break // α 剪枝
		}
	}
	return best
}
