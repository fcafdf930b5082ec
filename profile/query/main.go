// Profiling:
// go build ./profile/query
// go tool pprof -http=":8000" -nodefraction=0.001 ./query cpu.prof

package main

import (
	"os"
	"runtime"
	"runtime/pprof"

	ecs "github.com/hollowforge/ecsforge"
)

type comp1 struct {
	V int64
	W int64
}

type comp2 struct {
	V int64
	W int64
}

type comp3 struct {
	V int64
	W int64
}

type comp4 struct {
	V int64
	W int64
}

type comp5 struct {
	V int64
	W int64
}

type comp6 struct {
	V int64
	W int64
}

type components struct {
	C1 comp1
	C2 comp2
	C3 comp3
	C4 comp4
	C5 comp5
	C6 comp6
}

type queues struct{}
type resources struct{}

func main() {
	// CPU Profiling
	f, _ := os.Create("cpu.prof")
	_ = pprof.StartCPUProfile(f)
	defer pprof.StopCPUProfile()

	count := 50
	iters := 10000
	entities := 100000
	run(count, iters, entities)

	// Memory Profiling
	memFile, _ := os.Create("mem.prof")
	defer memFile.Close()
	runtime.GC()
	_ = pprof.WriteHeapProfile(memFile)
}

// run builds numEntities entities carrying all six components once per
// round, then iterates them iters times read-writing comp1 against comp2 —
// the six-component wide-page shape the teacher's query profile exercised,
// retargeted at an ecs.View query over a page-iterator instead of
// teishoku's fixed-arity NewFilter6/NewBuilder6.
func run(rounds, iters, numEntities int) {
	for range rounds {
		pool := ecs.NewBlockPool(ecs.Config.BlockSize, 64, true)
		keygen := ecs.NewKeyGenerator()
		world := ecs.NewWorld(pool, keygen)
		ctx := ecs.NewContext[components, queues, resources](world)

		all := ecs.ComponentSet(
			ecs.GetID[comp1](), ecs.GetID[comp2](), ecs.GetID[comp3](),
			ecs.GetID[comp4](), ecs.GetID[comp5](), ecs.GetID[comp6](),
		)
		view := ctx.NewView(ecs.ViewCapabilities{ComponentReadWrite: all})
		query := ecs.QueryInfo{IncludeReadWrite: all}

		for i := 0; i < numEntities; i++ {
			tmpl := ecs.NewTemplate()
			ecs.WithComponent(tmpl, comp1{})
			ecs.WithComponent(tmpl, comp2{V: 1, W: 1})
			ecs.WithComponent(tmpl, comp3{})
			ecs.WithComponent(tmpl, comp4{})
			ecs.WithComponent(tmpl, comp5{})
			ecs.WithComponent(tmpl, comp6{})
			if _, err := world.QueueCreate(tmpl); err != nil {
				panic(err)
			}
		}
		if err := world.ResolveQueues(); err != nil {
			panic(err)
		}

		for range iters {
			it, err := view.Query(query)
			if err != nil {
				panic(err)
			}
			for pg, ok := it.Next(); ok; pg, ok = it.Next() {
				ents := pg.Entities(world, &query)
				for ents.Next() {
					ev := ents.View()
					c1 := ecs.GetPtr[comp1](view, ev)
					c2 := ecs.Get[comp2](view, ev)
					c1.V += c2.V
					c1.W += c2.W
				}
			}
		}
	}
}
