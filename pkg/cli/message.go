package cli

import "fmt"

func paint(colour, message string) string {
	return colour + message + Reset
}

func Error(message string) {
	fmt.Print(paint(RedColour, message))
}

func Errorln(message string) {
	fmt.Println(paint(RedColour, message))
}

func Success(message string) {
	fmt.Print(paint(GreenColour, message))
}

func Successln(message string) {
	fmt.Println(paint(GreenColour, message))
}

func Warning(message string) {
	fmt.Print(paint(YellowColour, message))
}

func Warningln(message string) {
	fmt.Println(paint(YellowColour, message))
}

func Magenta(message string) {
	fmt.Print(paint(MagentaColour, message))
}

func Magentaln(message string) {
	fmt.Println(paint(MagentaColour, message))
}

func Blue(message string) {
	fmt.Print(paint(BlueColour, message))
}

func Blueln(message string) {
	fmt.Println(paint(BlueColour, message))
}

func Cyan(message string) {
	fmt.Print(paint(CyanColour, message))
}

func Cyanln(message string) {
	fmt.Println(paint(CyanColour, message))
}

func Gray(message string) {
	fmt.Print(paint(GrayColour, message))
}

func Grayln(message string) {
	fmt.Println(paint(GrayColour, message))
}
