package domain

import (
	"errors"
	"math/big"
)

var ErrBrokenRoute = errors.New("route hops do not chain")

type TradeSide uint8

const (
	SideSell TradeSide = iota
	SideBuy
)

func (s TradeSide) String() string {
	if s == SideBuy {
		return "BUY"
	}
	return "SELL"
}

// Hop is one pool traversal within a route, with the simulated amounts for
// the quoted trade size.
type Hop struct {
	Pool      *PoolSnapshot
	TokenIn   Asset
	TokenOut  Asset
	AmountIn  *big.Int
	AmountOut *big.Int
}

// Route is a non-empty ordered hop sequence where each hop's output asset is
// the next hop's input asset. The adjacency invariant is enforced here so the
// rest of the engine never has to re-check it.
type Route struct {
	hops []Hop
}

func NewRoute(hops []Hop) (*Route, error) {
	if len(hops) == 0 {
		return nil, ErrBrokenRoute
	}
	for i := 0; i < len(hops)-1; i++ {
		if !hops[i].TokenOut.Equal(hops[i+1].TokenIn) {
			return nil, ErrBrokenRoute
		}
	}
	return &Route{hops: hops}, nil
}

func (r *Route) Hops() []Hop {
	return r.hops
}

func (r *Route) HopCount() int {
	return len(r.hops)
}

func (r *Route) TokenIn() Asset {
	return r.hops[0].TokenIn
}

func (r *Route) TokenOut() Asset {
	return r.hops[len(r.hops)-1].TokenOut
}

func (r *Route) AmountIn() *big.Int {
	return r.hops[0].AmountIn
}

func (r *Route) AmountOut() *big.Int {
	return r.hops[len(r.hops)-1].AmountOut
}

// TotalFeeBps sums the pool fees along the route. Used as a ranking
// tie-breaker, not as an exact cost figure.
func (r *Route) TotalFeeBps() uint32 {
	var total uint32
	for _, h := range r.hops {
		total += uint32(h.Pool.FeeBps)
	}
	return total
}

// Path lists the asset sequence from input to output.
func (r *Route) Path() []Asset {
	path := make([]Asset, 0, len(r.hops)+1)
	path = append(path, r.hops[0].TokenIn)
	for _, h := range r.hops {
		path = append(path, h.TokenOut)
	}
	return path
}
