package bindings

import "fmt"

var (
	// Action identifiers exposed via KnownActions for docs/config validation.
	ActionMoveUp         ActionID = "move_up"
	ActionMoveDown       ActionID = "move_down"
	ActionNextDocument   ActionID = "next_document"
	ActionPrevDocument   ActionID = "prev_document"
	ActionCycleView      ActionID = "cycle_view"
	ActionReorderUp      ActionID = "reorder_up"
	ActionReorderDown    ActionID = "reorder_down"
	ActionToggleEnabled  ActionID = "toggle_enabled"
	ActionToggleKind     ActionID = "toggle_kind"
	ActionEdit           ActionID = "edit"
	ActionEditKey        ActionID = "edit_key"
	ActionAddEntry       ActionID = "add_entry"
	ActionAddComment     ActionID = "add_comment"
	ActionDeleteEntry    ActionID = "delete_entry"
	ActionSaveFile       ActionID = "save_file"
	ActionSaveAs         ActionID = "save_as"
	ActionExport         ActionID = "export"
	ActionReloadFromDisk ActionID = "reload_from_disk"
	ActionCheckSync      ActionID = "check_sync"
	ActionClone          ActionID = "clone"
	ActionRename         ActionID = "rename"
	ActionImport         ActionID = "import"
	ActionNewDocument    ActionID = "new_document"
	ActionCloseDocument  ActionID = "close_document"
	ActionPaste          ActionID = "paste"
	ActionCopyView       ActionID = "copy_view"
	ActionToggleMask     ActionID = "toggle_mask"
	ActionToggleHelp     ActionID = "toggle_help"
	ActionQuitApp        ActionID = "quit_app"
)

type definition struct {
	id          ActionID
	repeatable  bool
	description string
	defaults    [][]string
}

var definitions = []definition{
	def(ActionMoveUp, true, "previous row", "up", "k"),
	def(ActionMoveDown, true, "next row", "down", "j"),
	def(ActionNextDocument, true, "next file", "]", "g n"),
	def(ActionPrevDocument, true, "previous file", "[", "g p"),
	def(ActionCycleView, false, "table / raw / json", "tab"),
	def(ActionReorderUp, true, "move row up", "shift+up", "shift+k"),
	def(ActionReorderDown, true, "move row down", "shift+down", "shift+j"),
	def(ActionToggleEnabled, false, "enable / disable", "space"),
	def(ActionToggleKind, false, "variable / comment", "#"),
	def(ActionEdit, false, "edit value or raw text", "enter", "e"),
	def(ActionEditKey, false, "edit key", "i"),
	def(ActionAddEntry, false, "add variable", "a", "o"),
	def(ActionAddComment, false, "add comment", "shift+a"),
	def(ActionDeleteEntry, false, "delete row", "d d", "delete"),
	def(ActionSaveFile, false, "save", "ctrl+s"),
	def(ActionSaveAs, false, "save as", "g shift+s"),
	def(ActionExport, false, "export", "g x"),
	def(ActionReloadFromDisk, false, "reload from disk", "ctrl+r", "g shift+r"),
	def(ActionCheckSync, false, "diff with disk", "g d"),
	def(ActionClone, false, "clone file", "g c"),
	def(ActionRename, false, "rename", "g r"),
	def(ActionImport, false, "open files", "ctrl+o"),
	def(ActionNewDocument, false, "new file", "ctrl+n"),
	def(ActionCloseDocument, false, "close file", "ctrl+w"),
	def(ActionPaste, false, "paste from clipboard", "ctrl+v", "p"),
	def(ActionCopyView, false, "copy view", "y y"),
	def(ActionToggleMask, false, "mask values", "g m"),
	def(ActionToggleHelp, false, "help", "?"),
	def(ActionQuitApp, false, "quit", "ctrl+q", "ctrl+c"),
}

var definitionLookup = func() map[ActionID]definition {
	lookup := make(map[ActionID]definition, len(definitions))
	for _, def := range definitions {
		lookup[def.id] = def
	}
	return lookup
}()

func def(id ActionID, repeatable bool, description string, specs ...string) definition {
	seqs := make([][]string, 0, len(specs))
	for _, spec := range specs {
		seqs = append(seqs, mustSequence(spec))
	}
	return definition{id: id, repeatable: repeatable, description: description, defaults: seqs}
}

func mustSequence(spec string) []string {
	seq, err := parseSequence(spec)
	if err != nil {
		panic(fmt.Sprintf("invalid default shortcut %q: %v", spec, err))
	}
	return seq
}
