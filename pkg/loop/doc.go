// Package loop drives build-description loops over captured paths and
// named values.
//
// Foreach enumerates every combination of the paths matched by capture
// patterns and the supplied named values. For each combination it binds the
// captured parts and the values into an execution context, hands control to
// the loop body and restores the context afterwards:
//
//	named := values.NewNamedValues().Add("mode", "debug", "release")
//	for it, err := range loop.Foreach(values.Scalar("src/{*name}.cc"), named) {
//		if err != nil {
//			return err
//		}
//		mode, _ := it.Context.GetString("mode")
//		name, _ := it.Context.GetString("name")
//		fmt.Printf("compile %s in %s mode as obj/%s/%s.o\n", it.Path, mode, mode, name)
//	}
//
// Expand produces strings instead of driving a loop body:
//
//	loop.Expand(values.Scalar("obj/{mode}/{name}.o"), named)
//
// Names are enumerated in the order they were added; the last name varies
// fastest.
package loop
