package verstub

import "reflect"

// Call0 dispatches a call to a method without results.
func Call0(h Handle, name string, in ...any) {
	f := bound(h)
	f.reg.t.Helper()
	f.reg.invoke(f, name, in)
}

// Call1 dispatches a call to a method with one result.
func Call1[T1 any](h Handle, name string, in ...any) (v1 T1) {
	f := bound(h)
	f.reg.t.Helper()
	out := results(f.reg.invoke(f, name, in), 1)
	v1 = result[T1](f, name, out, 0)
	return
}

// Call2 dispatches a call to a method with two results.
func Call2[T1, T2 any](h Handle, name string, in ...any) (v1 T1, v2 T2) {
	f := bound(h)
	f.reg.t.Helper()
	out := results(f.reg.invoke(f, name, in), 2)
	v1 = result[T1](f, name, out, 0)
	v2 = result[T2](f, name, out, 1)
	return
}

// Call3 dispatches a call to a method with three results.
func Call3[T1, T2, T3 any](h Handle, name string, in ...any) (v1 T1, v2 T2, v3 T3) {
	f := bound(h)
	f.reg.t.Helper()
	out := results(f.reg.invoke(f, name, in), 3)
	v1 = result[T1](f, name, out, 0)
	v2 = result[T2](f, name, out, 1)
	v3 = result[T3](f, name, out, 2)
	return
}

// Call4 dispatches a call to a method with four results.
func Call4[T1, T2, T3, T4 any](h Handle, name string, in ...any) (v1 T1, v2 T2, v3 T3, v4 T4) {
	f := bound(h)
	f.reg.t.Helper()
	out := results(f.reg.invoke(f, name, in), 4)
	v1 = result[T1](f, name, out, 0)
	v2 = result[T2](f, name, out, 1)
	v3 = result[T3](f, name, out, 2)
	v4 = result[T4](f, name, out, 3)
	return
}

// results spreads a response over n results. Results are taken as they
// are; any other single value fills the first result.
func results(out any, n int) []any {
	if rs, ok := out.(Results); ok && n != 1 {
		return rs
	}
	if out == nil {
		return nil
	}
	return []any{out}
}

// result converts the i-th response value to T. Missing values and a
// null-object fake answering with itself where it does not fit give the
// zero value; any other mismatch is reported on the test.
func result[T any](f *Fake, name string, out []any, i int) (v T) {
	if i >= len(out) || out[i] == nil {
		return
	}
	if v, ok := out[i].(T); ok {
		return v
	}
	if out[i] == f.self {
		return
	}
	f.reg.t.Helper()
	f.reg.t.Errorf("%s.%s: result %d: cannot use %T as %v", f, name, i, out[i], reflect.TypeOf((*T)(nil)).Elem())
	return
}
