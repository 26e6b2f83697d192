package mcpserver

// DeckFormatContract describes the canonical JSON shape of the deck data that
// LLM consumers should follow when reasoning about or generating cards.
const DeckFormatContract = `# Raido Deck Format Contract

Raido persists a single JSON array of sections. Every consumer MUST follow
this structure.

## Structure

` + "```" + `json
[
  {
    "id": "section-1",
    "title": "Databases",
    "decks": [
      {
        "id": "deck-1",
        "title": "Basics",
        "cards": [
          {
            "id": "card-1",
            "displayId": "BAS-01",
            "front": "What is ACID?",
            "back": "Atomicity, Consistency, Isolation, Durability",
            "category": "Basics",
            "frontImage": null,
            "backImage": null
          }
        ]
      }
    ]
  }
]
` + "```" + `

## Rules

1. **IDs are opaque strings** owned by the editor; never invent colliding ids.
2. **displayId** is a short human-readable card code (e.g. ` + "`" + `BAS-01` + "`" + `).
3. **front / back** hold Markdown/HTML-ish text as written in the editor.
4. **category** groups cards for tagging; empty means "general" on export.
5. **frontImage / backImage** are optional ` + "`" + `data:*;base64,` + "`" + ` URIs,
   at most one per side. Only the back image is embedded in Anki exports.
6. **Deck hierarchy in Anki** is derived as
   ` + "`" + `Default::<section title>::<deck title>` + "`" + `; keep titles free of ` + "`" + `::` + "`" + `.
`
