// Package errx provides structured, code-based errors for wheelpub.
//
// Each error carries:
//   - A stable 5-digit error code (e.g., "76000" for authentication errors)
//   - A category description (e.g., "Authentication error")
//   - A user-facing message
//   - Optional structured context (key-value pairs)
//   - Optional cause and base sentinel errors
//
// The first two digits of a code name the domain:
//   - 70xxx: CLI/argument validation errors
//   - 71xxx: Configuration errors (.pypirc, tool config)
//   - 72xxx: Credential resolution errors
//   - 73xxx: Artifact I/O errors
//   - 74xxx: Package metadata errors
//   - 75xxx: Transport errors
//   - 76xxx: Authentication errors
//   - 77xxx: File already exists on the index
//   - 78xxx: Other registry server errors
//
// The last three digits are reserved for subcodes. Catalog.Sentinel only
// accepts codes listed in the registry, with their registered description.
//
// Packages usually declare their sentinels through a Catalog:
//
//	var catalog = errx.NewCatalog()
//	var ErrAuthentication = catalog.Sentinel("authentication failed", errx.CodeAuth, errx.DescAuth)
//
//	err := catalog.WrapWithContext(ErrAuthentication, nil, "username or password are wrong",
//		map[string]any{"url": registry.URL})
//
//	fmt.Println(errx.UserString(err))  // User-friendly message
//	fmt.Println(errx.DebugString(err)) // Full debug details
package errx
