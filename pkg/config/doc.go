/*
Package config loads and validates rewriterc rule sets.

	            +-------------+
	            |   Config    |
	            |  (targets)  |
	            +------+------+
	                   |
	    +--------------+--------------+
	    |              |              |
	+---+---+      +---+---+      +---+---+
	| YAML  |      | JSON  |      |  HCL  |
	+-------+      +-------+      +-------+

🎯 Purpose:
- Reads a config file, picking a parser by extension
- Falls back to the embedded "dropdowns" preset when no file is given
- Validates every rule up front so a bad pattern never reaches a file
- Expands doublestar target globs into concrete files

🔄 Flow:
1. Load reads the file and finds a registered Parser
2. The parser decodes into Config (unknown fields are errors)
3. Validate applies defaults and compiles every rule
4. ResolveTargets turns target paths into files, one entry per file

🔍 Example:

	cfg, err := config.Load(ctx, ".rewriterc.yaml")
	if err != nil {
		return err
	}

	targets, err := cfg.ResolveTargets(ctx, cfg.Dir())
	if err != nil {
		return err
	}
*/
package config
