// Package tokenizer counts tokens in conversations and checks the
// counts against run budgets.
package tokenizer
