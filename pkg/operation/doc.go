/*
Package operation runs rule sets against target files.

	+-------------+
	|   Request   |
	| (config +   |
	|   flags)    |
	+------+------+
	       |
	+------+------+
	|   Runner    |
	| (sync/async)|
	+------+------+
	       |
	+------+------+
	|  Operation  |
	| (per file)  |
	+-------------+

🎯 Purpose:
- Resolves the config's targets into one operation per file
- Applies rules through text.TextReplacer
- Delegates file I/O to document.Store
- Reports each rule and file through pkg/log

🔄 Flow (apply):
1. Load the document
2. Apply every rule in order, verifying match counts
3. Back up the original when asked
4. Save atomically, refusing if the file changed meanwhile
5. Print the success notice once every target is done

Check mode stops after step 2 and can print a line diff. Restore mode only
moves <path>.bak back into place.

🔍 Example:

	err := operation.Run(ctx, operation.Request{
		Config: cfg,
		Mode:   operation.ModeCheck,
		Diff:   true,
	})
*/
package operation
