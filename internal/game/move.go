package game

import "fmt"

// MoveKind tells the two move variants apart. Capture resolution is the same for
// both; only the origin handling differs.
type MoveKind uint8

const (
	// Add 复制：落点与起点相邻，起点保留棋子
	Add MoveKind = iota
	// Transfer 跳跃：落点距离为 2，起点清空
	Transfer
)

func (k MoveKind) String() string {
	if k == Transfer {
		return "transfer"
	}
	return "add"
}

// Move 表示一次从 From 到 To 的走子
type Move struct {
	From int
	To   int
	Kind MoveKind
}

// ClearsOrigin reports whether the origin cell becomes empty.
func (m Move) ClearsOrigin() bool { return m.Kind == Transfer }

func (m Move) String() string {
	return fmt.Sprintf("%s %d->%d", m.Kind, m.From, m.To)
}

// Opponent returns the other player, or Empty for a non-player state.
func Opponent(player CellState) CellState {
	switch player {
	case PlayerA:
		return PlayerB
	case PlayerB:
		return PlayerA
	}
	return Empty
}

// addMask 标记 player 所有棋子一步可达的空格
func addMask(b *Board, player CellState) (mask [BoardN]bool) {
	if !player.IsPlayer() {
		return mask
	}
	for i, s := range b {
		if s != player {
			continue
		}
		for _, to := range NeighI[i] {
			if b[to] == Empty {
				mask[to] = true
			}
		}
	}
	return mask
}

// transferMask 标记两步可达、且不能靠复制到达的空格
func transferMask(b *Board, player CellState, adds *[BoardN]bool) (mask [BoardN]bool) {
	if !player.IsPlayer() {
		return mask
	}
	for i, s := range b {
		if s != player {
			continue
		}
		for _, to := range FarI[i] {
			if b[to] == Empty && !adds[to] {
				mask[to] = true
			}
		}
	}
	return mask
}

func maskToSlice(mask *[BoardN]bool) []int {
	var out []int
	for i, ok := range mask {
		if ok {
			out = append(out, i)
		}
	}
	return out
}

// AddTargets returns every empty cell adjacent to a piece of player, ascending.
func AddTargets(b *Board, player CellState) []int {
	m := addMask(b, player)
	return maskToSlice(&m)
}

// TransferTargets returns every empty cell two steps from a piece of player that
// no add move reaches, ascending.
func TransferTargets(b *Board, player CellState) []int {
	adds := addMask(b, player)
	m := transferMask(b, player, &adds)
	return maskToSlice(&m)
}

// Targets returns the add and transfer destinations available to the piece on
// origin. Transfers to cells that some add move of player already reaches are
// left out. Both are nil if origin does not hold a piece of player.
func Targets(b *Board, player CellState, origin int) (add, transfer []int) {
	if b.Get(origin) != player {
		return nil, nil
	}
	adds := addMask(b, player)
	for _, to := range NeighI[origin] {
		if b[to] == Empty {
			add = append(add, to)
		}
	}
	for _, to := range FarI[origin] {
		if b[to] == Empty && !adds[to] {
			transfer = append(transfer, to)
		}
	}
	return add, transfer
}

// GenerateMoves 枚举玩家 player 的所有合法走法。
// 按起点升序，每个起点先复制后跳跃；同一落点的不同起点跳跃各算一步。
func GenerateMoves(b *Board, player CellState) []Move {
	if !player.IsPlayer() {
		return nil
	}
	adds := addMask(b, player)
	moves := make([]Move, 0, 64)
	for i, s := range b {
		if s != player {
			continue
		}
		for _, to := range NeighI[i] {
			if b[to] == Empty {
				moves = append(moves, Move{From: i, To: to, Kind: Add})
			}
		}
		for _, to := range FarI[i] {
			if b[to] == Empty && !adds[to] {
				moves = append(moves, Move{From: i, To: to, Kind: Transfer})
			}
		}
	}
	return moves
}

// HasMoves reports whether player has at least one legal move.
// Any reachable empty cell implies an add or a transfer.
func HasMoves(b *Board, player CellState) bool {
	if !player.IsPlayer() {
		return false
	}
	for i, s := range b {
		if s != player {
			continue
		}
		for _, to := range NeighI[i] {
			if b[to] == Empty {
				return true
			}
		}
		for _, to := range FarI[i] {
			if b[to] == Empty {
				return true
			}
		}
	}
	return false
}

// IsLegal reports whether m is among the moves GenerateMoves yields for player.
func IsLegal(b *Board, m Move, player CellState) bool {
	if !player.IsPlayer() || !InBounds(m.From) || !InBounds(m.To) {
		return false
	}
	if b[m.From] != player || b[m.To] != Empty {
		return false
	}
	switch m.Kind {
	case Add:
		return IsNeighbor(m.From, m.To)
	case Transfer:
		if !IsFar(m.From, m.To) {
			return false
		}
		adds := addMask(b, player)
		return !adds[m.To]
	}
	return false
}

// play 原地执行走子并感染落点周围的对手棋子，返回感染数
func (b *Board) play(m Move, player CellState) int {
	if m.ClearsOrigin() {
		b[m.From] = Empty
	}
	b[m.To] = player
	opp := Opponent(player)
	infected := 0
	for _, n := range NeighI[m.To] {
		if b[n] == opp {
			b[n] = player
			infected++
		}
	}
	return infected
}

// Apply returns the board after player makes move m. The input board is not modified.
// m must be a legal move for player; Apply does not check.
func Apply(b Board, m Move, player CellState) Board {
	b.play(m, player)
	return b
}

// Captures lists the opponent pieces that m would flip, without playing it.
func Captures(b *Board, m Move, player CellState) []int {
	opp := Opponent(player)
	var out []int
	for _, n := range NeighI[m.To] {
		if b.Get(n) == opp {
			out = append(out, n)
		}
	}
	return out
}
