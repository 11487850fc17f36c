// Package charts renders the dashboard charts with gonum/plot: a pie of the
// top cities by funding with percentage labels, and a bar chart of the top
// companies. Charts are written as PNG or SVG.
package charts
