// Package io reads and writes node trees as XML documents, and dumps them as
// JSON for inspection.
//
// # XML Format
//
// A document has one root element. Each node becomes an element with its
// attributes in order; reference markers carry their id as text:
//
//	<?xml version="1.0" encoding="UTF-8"?>
//	<Settings Ser.Ref="1" Name="default" Threshold="300">
//	  <HighScores>
//	    <HighScore Ser.Type="[]HighScore">
//	      <Ser.Items Ser.Type="HighScore">
//	        <HighScore Name="ann" Score="10450"/>
//	      </Ser.Items>
//	    </HighScore>
//	  </HighScores>
//	  <Owner>
//	    <Ser.Ref>1</Ser.Ref>
//	  </Owner>
//	</Settings>
//
// Element and attribute names are validated on write with
// [errors.ValidateElementName]; a tree with an invalid name is rejected
// rather than producing a document that cannot be read back.
//
// # Import
//
// Use [ImportXML] to read a tree from a file path, or [ReadXML] to read from
// any io.Reader:
//
//	root, err := io.ImportXML("farkle.xml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Export
//
// Use [ExportXML] to write a tree to a file, or [WriteXML] to write to any
// io.Writer. [WriteJSON] writes the same tree as indented JSON, and
// [ReadJSON] reads it back.
//
// # Concurrency
//
// All functions in this package are safe to call concurrently on distinct
// trees. Trees returned by [ReadXML] and [ImportXML] are independent of their
// source and can be modified freely.
//
// [errors.ValidateElementName]: github.com/matzehuels/stowage/pkg/errors.ValidateElementName
package io
