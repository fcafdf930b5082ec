// Profiling:
// go build ./profile/entities
// go tool pprof -http=":8000" -nodefraction=0.001 ./entities mem.pprof

package main

import (
	ecs "github.com/hollowforge/ecsforge"
	"github.com/pkg/profile"
)

type comp1 struct {
	V int64
	W int64
}

type comp2 struct {
	V int64
	W int64
}

type components struct {
	C1 comp1
	C2 comp2
}

type queues struct{}
type resources struct{}

func main() {
	count := 50
	iters := 10000
	entities := 1000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(count, iters, entities)
	p.Stop()
}

// run churns numEntities through create → iterate-and-mutate → destroy,
// rounds times, iters passes per round — the same allocation-pressure shape
// the teacher's profiling harness exercised, retargeted at the new
// Context/World/View surface instead of lazyecs's generic Query2/Batch2.
func run(rounds, iters, numEntities int) {
	for range rounds {
		pool := ecs.NewBlockPool(ecs.Config.BlockSize, 64, true)
		keygen := ecs.NewKeyGenerator()
		world := ecs.NewWorld(pool, keygen)
		ctx := ecs.NewContext[components, queues, resources](world)

		both := ecs.ComponentSet(ecs.GetID[comp1](), ecs.GetID[comp2]())
		view := ctx.NewView(ecs.ViewCapabilities{ComponentReadWrite: both})
		query := ecs.QueryInfo{IncludeReadWrite: both}

		for range iters {
			for i := 0; i < numEntities; i++ {
				tmpl := ecs.NewTemplate()
				ecs.WithComponent(tmpl, comp1{})
				ecs.WithComponent(tmpl, comp2{V: 1, W: 1})
				if _, err := world.QueueCreate(tmpl); err != nil {
					panic(err)
				}
			}
			if err := world.ResolveQueues(); err != nil {
				panic(err)
			}

			var created []ecs.Key
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
					created = append(created, ev.Key())
				}
			}

			for _, k := range created {
				if err := world.QueueDestroy(k); err != nil {
					panic(err)
				}
			}
			if err := world.ResolveQueues(); err != nil {
				panic(err)
			}
		}
	}
}
