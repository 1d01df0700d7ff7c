package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Returns the prompt content and any error encountered.
	// If the prompt is not found, implementations should return a sensible
	// default or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
// Templates use {name} placeholder substitution.
const (
	// PromptQuestionRewrite turns a follow-up utterance into a standalone
	// question. Placeholders: {chat_history}, {question}.
	PromptQuestionRewrite = "question_rewrite"

	// PromptAnswer grounds an answer in retrieved passage context.
	// Placeholders: {context}, {question}.
	PromptAnswer = "answer"

	// PromptDocumentQA answers a question against the whole document
	// with quote-then-answer attribution. Placeholders: {document},
	// {question}.
	PromptDocumentQA = "document_qa"
)

// PromptStoreAware is an optional interface for services that can use
// custom prompts. Services implementing it can have their templates
// customised by injecting a PromptStore after construction.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the service should use hardcoded default prompts.
	SetPromptStore(store PromptStore)
}
