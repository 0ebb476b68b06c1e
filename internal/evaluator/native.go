package evaluator

// ToNative converts a sandbox Value into a plain Go value for host
// consumption at the pkg/sandbox boundary (spec §6): primitives pass
// through directly, arrays/objects become []interface{}/
// map[string]interface{}, and a host-proxied value unwraps back to the
// original Go value the host registered.
func ToNative(v Value) interface{} {
	switch x := v.(type) {
	case Undefined:
		return nil
	case Null:
		return nil
	case Bool:
		return bool(x)
	case Number:
		return float64(x)
	case String:
		return string(x)
	case BigIntValue:
		return string(x)
	case *Array:
		out := make([]interface{}, len(x.Elements))
		for i, e := range x.Elements {
			out[i] = ToNative(e)
		}
		return out
	case *Object:
		keys := x.Keys()
		m := make(map[string]interface{}, len(keys))
		for _, k := range keys {
			val, _ := x.Get(k)
			m[k] = ToNative(val)
		}
		return m
	case *HostValue:
		return x.Proxy.Value
	default:
		return ToStringValue(v)
	}
}
