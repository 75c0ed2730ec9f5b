/*
* The MIT License (MIT)
* =====================
*
* Copyright (c) 2015, Cagatay Dogan
*
* Permission is hereby granted, free of charge, to any person obtaining a copy
* of this software and associated documentation files (the "Software"), to deal
* in the Software without restriction, including without limitation the rights
* to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
* copies of the Software, and to permit persons to whom the Software is
* furnished to do so, subject to the following conditions:
*
* The above copyright notice and this permission notice shall be included in
* all copies or substantial portions of the Software.
*
* THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
* IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
* FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
* AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
* LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
* OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
* THE SOFTWARE.
 */

// Package tree holds a left-leaning red-black tree keyed by raw bytes.
// Iteration is in bytes.Compare order.
package tree

import (
	"bytes"

	"stationsummary/stats"
)

const (
	red   = byte(0)
	black = byte(1)
)

type rbNode struct {
	key    []byte
	value  stats.Statistic
	colour byte
	left   *rbNode
	right  *rbNode
}

// RbTree has no internal locking; it is owned by a single writer.
type RbTree struct {
	root  *rbNode
	count int
}

func NewRbTree() *RbTree {
	return &RbTree{}
}

func isRed(node *rbNode) bool {
	return node != nil && node.colour == red
}

func flipSingleNodeColour(node *rbNode) {
	if node.colour == black {
		node.colour = red
	} else {
		node.colour = black
	}
}

// Flips the colours of node, and its two children
func colourFlip(node *rbNode) {
	flipSingleNodeColour(node)
	flipSingleNodeColour(node.left)
	flipSingleNodeColour(node.right)
}

func rotateLeft(node *rbNode) *rbNode {
	child := node.right
	node.right = child.left
	child.left = node
	child.colour = node.colour
	node.colour = red
	return child
}

func rotateRight(node *rbNode) *rbNode {
	child := node.left
	node.left = child.right
	child.right = node
	child.colour = node.colour
	node.colour = red
	return child
}

func balance(node *rbNode) *rbNode {
	if isRed(node.right) && !isRed(node.left) {
		node = rotateLeft(node)
	}
	if isRed(node.left) && isRed(node.left.left) {
		node = rotateRight(node)
	}
	if isRed(node.left) && isRed(node.right) {
		colourFlip(node)
	}
	return node
}

func (tree *RbTree) Count() int {
	return tree.count
}

func (tree *RbTree) find(key []byte) *rbNode {
	for node := tree.root; node != nil; {
		switch c := bytes.Compare(key, node.key); {
		case c < 0:
			node = node.left
		case c > 0:
			node = node.right
		default:
			return node
		}
	}
	return nil
}

func (tree *RbTree) Get(key []byte) (stats.Statistic, bool) {
	if node := tree.find(key); node != nil {
		return node.value, true
	}
	return stats.Statistic{}, false
}

// Upsert combines value into the entry for key, inserting a copy of key if
// it is absent.
func (tree *RbTree) Upsert(key []byte, value stats.Statistic) {
	if node := tree.find(key); node != nil {
		node.value.Merge(value)
		return
	}
	tree.root = tree.insertNode(tree.root, append([]byte(nil), key...), value)
	tree.root.colour = black
}

func (tree *RbTree) insertNode(node *rbNode, key []byte, value stats.Statistic) *rbNode {
	if node == nil {
		tree.count++
		return &rbNode{key: key, value: value, colour: red}
	}

	switch c := bytes.Compare(key, node.key); {
	case c < 0:
		node.left = tree.insertNode(node.left, key, value)
	case c > 0:
		node.right = tree.insertNode(node.right, key, value)
	default:
		node.value = value
	}
	return balance(node)
}

// Callback returns true to stop the traversal.
type Callback func(key []byte, value stats.Statistic) bool

func traverseAll(node *rbNode, callback Callback) bool {
	if node == nil {
		return false
	}
	if traverseAll(node.left, callback) {
		return true
	}
	if callback(node.key, node.value) {
		return true
	}
	return traverseAll(node.right, callback)
}

// Ascend visits every entry in ascending key order.
func (tree *RbTree) Ascend(fn Callback) {
	traverseAll(tree.root, fn)
}

// height is used by tests to check balance.
func height(node *rbNode) int {
	if node == nil {
		return 0
	}
	return 1 + max(height(node.left), height(node.right))
}
