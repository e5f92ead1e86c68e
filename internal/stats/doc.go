// Package stats содержит численные редукции над выборками задержек.
//
// Среднее делегируется github.com/montanaflynn/stats. Round идёт через
// strconv: mstats.Round округляет произведение v*100, а не само двоичное
// значение, и на 2.675 даёт 2.68 вместо 2.67. Percentile реализован здесь: нужна линейная интерполяция между
// порядковыми статистиками (rank = p/100 * (n-1)), а montanaflynn/stats
// считает перцентиль по другой формуле.
package stats
