// Package token defines lexical token kinds for Firestore security rules.
// Invariants:
//   - Token.Text is the exact source slice between Start and End.
//   - Comments are real tokens (LineComment, BlockComment); the parser attaches
//     them to the syntax tree as extras.
//   - Allow methods (read, write, ...) and type names (string, map, ...) are
//     identifiers. They are recognized by the parser, not the lexer.
package token
