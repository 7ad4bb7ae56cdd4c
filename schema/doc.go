// Package schema holds the declared field metadata that drives decoding
// and encoding of wire objects: wire kinds, per-field descriptors and
// the model registry that binds declarations to Go struct types.
//
// Declarations are explicit. A model lists its attributes once, either
// in Go source or in a YAML file:
//
//	version: "1"
//	models:
//	  - name: Server
//	    overrides:
//	      size_gb: SizeGB
//	    fields:
//	      - attribute: name
//	        type: string
//	      - attribute: sizeGb
//	        type: int
//	      - attribute: nics
//	        type: Nic
//	        sequence: true
//
// Binding a declaration to a struct prototype is machine-checked: every
// declared attribute must resolve to an exported struct field whose Go
// type fits the declared wire type, so metadata drift surfaces at
// registration, not at decode time.
//
// Nested model references are resolved by Registry.Validate, which also
// rejects reference cycles in the declaration graph.
package schema
