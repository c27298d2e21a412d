package cpu

import (
	"github.com/retroenv/retrochip8/internal/chip8"
)

type handler func(c *CPU, ins chip8.Instruction) error

// handlers maps every instruction form to its execution function.
var handlers = [chip8.OpCount + 1]handler{
	chip8.OpClearScreen:     (*CPU).clearScreen,
	chip8.OpReturn:          (*CPU).subroutineReturn,
	chip8.OpJump:            (*CPU).jump,
	chip8.OpCall:            (*CPU).subroutineCall,
	chip8.OpSkipEqualImm:    (*CPU).skipEqualImm,
	chip8.OpSkipNotEqualImm: (*CPU).skipNotEqualImm,
	chip8.OpSkipEqualReg:    (*CPU).skipEqualReg,
	chip8.OpLoadImm:         (*CPU).loadImm,
	chip8.OpAddImm:          (*CPU).addImm,
	chip8.OpLoadReg:         (*CPU).loadReg,
	chip8.OpOr:              (*CPU).or,
	chip8.OpAnd:             (*CPU).and,
	chip8.OpXor:             (*CPU).xor,
	chip8.OpAddReg:          (*CPU).addReg,
	chip8.OpSub:             (*CPU).sub,
	chip8.OpShiftRight:      (*CPU).shiftRight,
	chip8.OpSubSwapped:      (*CPU).subSwapped,
	chip8.OpShiftLeft:       (*CPU).shiftLeft,
	chip8.OpSkipNotEqualReg: (*CPU).skipNotEqualReg,
	chip8.OpLoadAddress:     (*CPU).loadAddress,
	chip8.OpJumpV0:          (*CPU).jumpV0,
	chip8.OpRandom:          (*CPU).randomAnd,
	chip8.OpDraw:            (*CPU).draw,
	chip8.OpSkipPressed:     (*CPU).skipPressed,
	chip8.OpSkipNotPressed:  (*CPU).skipNotPressed,
	chip8.OpLoadDelay:       (*CPU).loadDelay,
	chip8.OpWaitKey:         (*CPU).waitKey,
	chip8.OpSetDelay:        (*CPU).setDelay,
	chip8.OpSetSound:        (*CPU).setSound,
	chip8.OpAddAddress:      (*CPU).addAddress,
	chip8.OpLoadGlyph:       (*CPU).loadGlyph,
	chip8.OpStoreBCD:        (*CPU).storeBCD,
	chip8.OpStoreRegisters:  (*CPU).storeRegisters,
	chip8.OpLoadRegisters:   (*CPU).loadRegisters,
}

// skipIf skips the next instruction when the condition holds.
func (c *CPU) skipIf(condition bool) {
	if condition {
		c.pc += chip8.OpcodeSize
	}
}

// setFlag writes VF. It is always called after the result register was
// written so that the flag wins when Vx is VF.
func (c *CPU) setFlag(set bool) {
	if set {
		c.v[chip8.FlagRegister] = 1
	} else {
		c.v[chip8.FlagRegister] = 0
	}
}

func (c *CPU) clearScreen(chip8.Instruction) error {
	c.display.Clear()
	c.display.Flush()
	return nil
}

func (c *CPU) subroutineReturn(chip8.Instruction) error {
	if len(c.stack) == 0 {
		if c.underflow == UnderflowError {
			return ErrStackUnderflow
		}
		c.pc = chip8.ProgramStart
		return nil
	}
	c.pc = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	return nil
}

func (c *CPU) jump(ins chip8.Instruction) error {
	c.pc = ins.NNN
	return nil
}

func (c *CPU) subroutineCall(ins chip8.Instruction) error {
	if len(c.stack) >= c.stackLimit {
		return ErrStackOverflow
	}
	c.stack = append(c.stack, c.pc)
	c.pc = ins.NNN
	return nil
}

func (c *CPU) skipEqualImm(ins chip8.Instruction) error {
	c.skipIf(c.v[ins.X] == ins.KK)
	return nil
}

func (c *CPU) skipNotEqualImm(ins chip8.Instruction) error {
	c.skipIf(c.v[ins.X] != ins.KK)
	return nil
}

func (c *CPU) skipEqualReg(ins chip8.Instruction) error {
	c.skipIf(c.v[ins.X] == c.v[ins.Y])
	return nil
}

func (c *CPU) skipNotEqualReg(ins chip8.Instruction) error {
	c.skipIf(c.v[ins.X] != c.v[ins.Y])
	return nil
}

func (c *CPU) loadImm(ins chip8.Instruction) error {
	c.v[ins.X] = ins.KK
	return nil
}

func (c *CPU) addImm(ins chip8.Instruction) error {
	sum := uint16(c.v[ins.X]) + uint16(ins.KK)
	c.v[ins.X] = uint8(sum)
	if !c.quirks.AddImmKeepsVF {
		c.setFlag(sum > 0xFF)
	}
	return nil
}

func (c *CPU) loadReg(ins chip8.Instruction) error {
	c.v[ins.X] = c.v[ins.Y]
	return nil
}

func (c *CPU) or(ins chip8.Instruction) error {
	c.v[ins.X] |= c.v[ins.Y]
	return nil
}

func (c *CPU) and(ins chip8.Instruction) error {
	c.v[ins.X] &= c.v[ins.Y]
	return nil
}

func (c *CPU) xor(ins chip8.Instruction) error {
	c.v[ins.X] ^= c.v[ins.Y]
	return nil
}

func (c *CPU) addReg(ins chip8.Instruction) error {
	sum := uint16(c.v[ins.X]) + uint16(c.v[ins.Y])
	c.v[ins.X] = uint8(sum)
	c.setFlag(sum > 0xFF)
	return nil
}

// sub sets VF to NOT borrow: 1 when the minuend Vx is not less than Vy.
func (c *CPU) sub(ins chip8.Instruction) error {
	vx, vy := c.v[ins.X], c.v[ins.Y]
	c.v[ins.X] = vx - vy
	c.setFlag(vx >= vy)
	return nil
}

func (c *CPU) subSwapped(ins chip8.Instruction) error {
	vx, vy := c.v[ins.X], c.v[ins.Y]
	c.v[ins.X] = vy - vx
	c.setFlag(vy >= vx)
	return nil
}

func (c *CPU) shiftRight(ins chip8.Instruction) error {
	value := c.shiftSource(ins)
	c.v[ins.X] = value >> 1
	c.setFlag(value&0x01 != 0)
	return nil
}

func (c *CPU) shiftLeft(ins chip8.Instruction) error {
	value := c.shiftSource(ins)
	c.v[ins.X] = value << 1
	c.setFlag(value&0x80 != 0)
	return nil
}

func (c *CPU) shiftSource(ins chip8.Instruction) uint8 {
	if c.quirks.ShiftUsesVY {
		return c.v[ins.Y]
	}
	return c.v[ins.X]
}

func (c *CPU) loadAddress(ins chip8.Instruction) error {
	c.i = ins.NNN
	return nil
}

func (c *CPU) jumpV0(ins chip8.Instruction) error {
	c.pc = ins.NNN + uint16(c.v[0])
	return nil
}

func (c *CPU) randomAnd(ins chip8.Instruction) error {
	c.v[ins.X] = c.random() & ins.KK
	return nil
}

func (c *CPU) draw(ins chip8.Instruction) error {
	sprite := make([]byte, ins.N)
	for n := range sprite {
		sprite[n] = c.read(c.i + uint16(n))
	}

	collided := c.display.WriteSprite(int(c.v[ins.X]), int(c.v[ins.Y]), sprite)
	c.setFlag(collided)
	c.display.Flush()
	return nil
}

func (c *CPU) skipPressed(ins chip8.Instruction) error {
	c.skipIf(c.keypad.IsPressed(c.v[ins.X] & 0x0F))
	return nil
}

func (c *CPU) skipNotPressed(ins chip8.Instruction) error {
	c.skipIf(!c.keypad.IsPressed(c.v[ins.X] & 0x0F))
	return nil
}

func (c *CPU) loadDelay(ins chip8.Instruction) error {
	c.v[ins.X] = c.delay
	return nil
}

// waitKey polls the keypad. Without a pressed key the instruction is
// repeated on the next step.
func (c *CPU) waitKey(ins chip8.Instruction) error {
	key, ok := c.keypad.PressedKey()
	if !ok {
		c.pc -= chip8.OpcodeSize
		return nil
	}
	c.v[ins.X] = key & 0x0F
	return nil
}

func (c *CPU) setDelay(ins chip8.Instruction) error {
	c.delay = c.v[ins.X]
	return nil
}

func (c *CPU) setSound(ins chip8.Instruction) error {
	c.sound = c.v[ins.X]
	return nil
}

func (c *CPU) addAddress(ins chip8.Instruction) error {
	c.i += uint16(c.v[ins.X])
	return nil
}

func (c *CPU) loadGlyph(ins chip8.Instruction) error {
	c.i = chip8.GlyphAddress(c.v[ins.X])
	return nil
}

func (c *CPU) storeBCD(ins chip8.Instruction) error {
	value := c.v[ins.X]
	c.write(c.i, value/100)
	c.write(c.i+1, value/10%10)
	c.write(c.i+2, value%10)
	return nil
}

// storeRegisters copies V0 to Vx inclusive to memory starting at I.
func (c *CPU) storeRegisters(ins chip8.Instruction) error {
	for n := uint16(0); n <= uint16(ins.X); n++ {
		c.write(c.i+n, c.v[n])
	}
	return nil
}

// loadRegisters copies memory starting at I to V0 to Vx inclusive.
func (c *CPU) loadRegisters(ins chip8.Instruction) error {
	for n := uint16(0); n <= uint16(ins.X); n++ {
		c.v[n] = c.read(c.i + n)
	}
	return nil
}
