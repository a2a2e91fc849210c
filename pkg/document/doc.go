/*
Package document reads and writes the files rules are applied to.

A Document is loaded whole, remembering its permissions and a SHA-256
checksum. Saving writes a temp file next to the original and renames it into
place, after checking that nobody else changed the file in between.

	store := document.NewFileStore()

	doc, err := store.Load(ctx, "src/pages/MyQueue.tsx")
	if err != nil {
		return err
	}

	if err := store.Save(ctx, doc, rewritten); err != nil {
		return err
	}

Backups are plain copies with a ".bak" suffix. Restore moves one back over
the original and removes it.
*/
package document
