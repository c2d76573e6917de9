package verstub_test

import (
	"fmt"
	"testing"

	"github.com/Versent/go-verstub"
)

func Example() {
	t := &testing.T{} // or any testing.TB
	reg := verstub.NewRegistry(t, verstub.WithLogger(quiet))
	var cache Cache = verstub.New[fakeCache](reg, "cache")

	c := cache.(*fakeCache)
	c.Stub("Get").Returns(nil, false)
	c.Stub("Get").With("foo").Returns("bar", true)

	fmt.Println(cache.Get("foo"))
	fmt.Println(cache.Get("baz"))
	fmt.Println(cache.Put("foo", "qux"))

	fmt.Println(c.Received("Get").Twice().Check())
	fmt.Println(c.Received("Put").With("foo", verstub.Anything()).Once().Check())
	fmt.Println(c.Received("Delete").Err())
	// Output:
	// bar true
	// <nil> false
	// <nil>
	// true
	// true
	// cache: expected Delete(AnyArgs) at least once, found 0 calls
	// no calls to cache.Delete were recorded
}

func ExampleRegistry_NewNullFake() {
	t := &testing.T{}
	reg := verstub.NewRegistry(t, verstub.WithLogger(quiet))
	builder := reg.NewNullFake("builder")
	builder.Stub("Build").Returns("report")

	out := builder.Invoke("Title", "Weekly")
	out = out.(*verstub.Fake).Invoke("Footer")
	fmt.Println(out == builder, out.(*verstub.Fake).Invoke("Build"))
	// Output:
	// true report
}

func ExampleInOrder() {
	t := &testing.T{}
	reg := verstub.NewRegistry(t, verstub.WithLogger(quiet))
	station := reg.NewFake("station")
	station.Invoke("calibrate", "s1")
	station.Invoke("temperature", "NYC")

	fmt.Println(verstub.InOrder(station.Received("calibrate"), station.Received("temperature")))
	fmt.Println(verstub.InOrder(station.Received("temperature"), station.Received("calibrate")))
	// Output:
	// <nil>
	// calls out of order: expected station.calibrate(AnyArgs) after station call #2 temperature("NYC")
}
